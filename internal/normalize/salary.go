package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jobradar/jobradar/internal/job"
)

// hoursPerYear annualizes hourly rates so "$50/hr" is comparable to a yearly
// range.
const hoursPerYear = 2080

var (
	amountRe   = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(k|K)?`)
	hourlyRe   = regexp.MustCompile(`(?i)(/\s*(hr|hour)|per\s+hour|hourly)`)
	currencyRe = regexp.MustCompile(`[$€£]|(?i)\b(usd|eur|gbp)\b`)
)

var currencySymbols = map[string]string{
	"$": "USD", "€": "EUR", "£": "GBP",
	"usd": "USD", "eur": "EUR", "gbp": "GBP",
}

// ParseSalary extracts an annualized salary range from free text. It accepts
// shapes like "$120k-$150k", "120,000 - 150,000" and "$50/hr". Text with no
// parseable amount yields nil: an absent salary, never a zero one.
func ParseSalary(text string) *job.SalaryRange {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	matches := amountRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	hourly := hourlyRe.MatchString(text)

	amounts := make([]int, 0, 2)
	for _, m := range matches {
		value, ok := parseAmount(m[1], m[2] != "", hourly)
		if !ok {
			continue
		}
		amounts = append(amounts, value)
		if len(amounts) == 2 {
			break
		}
	}

	if len(amounts) == 0 {
		return nil
	}

	r := &job.SalaryRange{
		Min:      amounts[0],
		Max:      amounts[0],
		Currency: detectCurrency(text),
	}
	if len(amounts) == 2 {
		if amounts[1] < r.Min {
			r.Min, r.Max = amounts[1], amounts[0]
		} else {
			r.Max = amounts[1]
		}
	}

	// Amounts below a plausible annual floor without an explicit hourly
	// marker are noise ("3 openings", "401k matches"), not salaries.
	if !hourly && r.Max < 1000 {
		return nil
	}

	return r
}

func parseAmount(digits string, thousands, hourly bool) (int, bool) {
	digits = strings.ReplaceAll(digits, ",", "")
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	if thousands {
		value *= 1000
	}
	if hourly {
		value *= hoursPerYear
	}
	if value <= 0 {
		return 0, false
	}
	return int(value), true
}

func detectCurrency(text string) string {
	match := currencyRe.FindString(text)
	if match == "" {
		return "USD"
	}
	if code, ok := currencySymbols[strings.ToLower(match)]; ok {
		return code
	}
	return "USD"
}
