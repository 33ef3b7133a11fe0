package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

const (
	SearchPath = "/vacancies"
)

// SearchParams are the vacancy search filters. Text and PerPage are filled
// per request, the rest comes from the search.headhunter.params config block.
type SearchParams struct {
	Text string `yaml:"text" mapstructure:"-"`
	// hhparam is custom tag for reflect. Please see below.
	Areas       []int    `hhparam:"area" mapstructure:"area"`
	OrderBy     string   `yaml:"order_by" mapstructure:"order_by"`
	SearchField string   `yaml:"search_field" mapstructure:"search_field"`
	Schedules   []string `hhparam:"schedule" mapstructure:"schedule"`
	PerPage     string   `yaml:"per_page" mapstructure:"-"`
	Experience  string   `yaml:"experience" mapstructure:"experience"`
	Period      uint     `yaml:"period" mapstructure:"period"`
}

// SearchVacancies runs a vacancy search and decodes the results.
func (c *Client) SearchVacancies(ctx context.Context, params *SearchParams) (*Vacancies, error) {
	var vacancies []*Vacancy

	if params.PerPage == "" {
		params.PerPage = strconv.Itoa(c.perPage)
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(ctx, apiURLSearch, q)
	if err != nil {
		return nil, err
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &vacancies,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}

	return &Vacancies{
		Items: vacancies,
	}, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("hhparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		value := reflect.ValueOf(params).Elem().Field(field.Index[0])

		switch v := value.Interface().(type) {
		case []int:
			for _, item := range v {
				q.Add(key, strconv.Itoa(item))
			}
		case []string:
			for _, item := range v {
				q.Add(key, item)
			}
		default:
			s := fmt.Sprintf("%v", v)
			if s != "" && s != "0" {
				q.Set(key, s)
			}
		}
	}

	return q
}
