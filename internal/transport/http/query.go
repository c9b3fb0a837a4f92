package http

import (
	"net/url"
	"strconv"
	"strings"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/sales"
	"salespulse/internal/services"
)

// periodQuery is the query string of the sales views:
// ?quarter=Q1&quarter=Q2&month=Marzo&year=2025. Repeated keys and
// comma-separated values are both accepted.
type periodQuery struct {
	Quarters []string `query:"quarter" validate:"omitempty,dive,quarter"`
	Months   []string `query:"month" validate:"omitempty,dive,month"`
	Year     string   `query:"year" validate:"omitempty,numeric,len=4"`
}

func (q periodQuery) criteria() sales.PeriodCriteria {
	var quarters []string
	for _, v := range q.Quarters {
		quarters = append(quarters, sales.NormalizeQuarter(v))
	}
	return sales.PeriodCriteria{Quarters: quarters, Months: q.Months, Year: q.Year}
}

// clientQuery is the query string of the client views:
// ?client=LA+ARENA&month=Enero&year=2025&key_accounts=true.
type clientQuery struct {
	Clients     []string `query:"client" validate:"omitempty,dive,min=1,max=200"`
	Months      []string `query:"month" validate:"omitempty,dive,month"`
	Years       []string `query:"year" validate:"omitempty,dive,numeric,len=4"`
	KeyAccounts bool     `query:"key_accounts"`
}

func (q clientQuery) query() services.ClientQuery {
	return services.ClientQuery{
		Clients:         q.Clients,
		Months:          q.Months,
		Years:           q.Years,
		KeyAccountsOnly: q.KeyAccounts,
	}
}

func decodePeriodQuery(values url.Values) periodQuery {
	q := periodQuery{
		Quarters: multi(values, "quarter"),
		Months:   multi(values, "month"),
	}
	if years := multi(values, "year"); len(years) > 0 {
		q.Year = years[0]
	}
	return q
}

func decodeClientQuery(values url.Values) (clientQuery, error) {
	q := clientQuery{
		Clients: multiRaw(values, "client"),
		Months:  multi(values, "month"),
		Years:   multi(values, "year"),
	}
	if raw := strings.TrimSpace(values.Get("key_accounts")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apierrors.ErrValidation("key_accounts", "key_accounts must be true or false")
		}
		q.KeyAccounts = b
	}
	return q, nil
}

// multi collects every value of key, splitting on commas.
func multi(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// multiRaw collects every value of key without splitting, since client
// names may contain commas.
func multiRaw(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if p := strings.TrimSpace(v); p != "" {
			out = append(out, p)
		}
	}
	return out
}
