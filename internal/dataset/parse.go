package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	dollarRe  = regexp.MustCompile(`\$?([\d,]+(?:\.\d+)?)`)
	percentRe = regexp.MustCompile(`([\d.]+)\s*%`)
)

// parseDollars parses amounts as they appear in the CMS plan attribute
// files: "$6,500", "$0", or a bare number.
func parseDollars(val string) (decimal.Decimal, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return decimal.Zero, fmt.Errorf("empty dollar amount")
	}
	m := dollarRe.FindStringSubmatch(val)
	if m == nil {
		return decimal.Zero, fmt.Errorf("unparseable dollar amount %q", val)
	}
	return decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
}

// parseRate parses coinsurance rates: "30.00%" becomes 0.30, and a bare
// fraction like "0.3" passes through.
func parseRate(val string) (decimal.Decimal, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return decimal.Zero, fmt.Errorf("empty rate")
	}
	if m := percentRe.FindStringSubmatch(val); m != nil {
		pct, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Zero, err
		}
		return pct.Div(decimal.NewFromInt(100)).Round(4), nil
	}
	return decimal.NewFromString(val)
}

func parseFloat(val string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(val), 64)
}

func parseInt(val string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(val))
}
