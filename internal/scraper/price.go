package scraper

import (
	"strconv"
	"strings"
)

// ParsePrice extracts a dollar amount from scraped price text such as
// "$4.98", "Now $4.98", "$1,299.00" or "$0.23/oz". Returns false for text
// with no parseable amount.
func ParsePrice(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	start := strings.IndexByte(text, '$')
	if start >= 0 {
		text = text[start+1:]
	}

	end := 0
	for end < len(text) {
		ch := text[end]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == ',' {
			end++
			continue
		}
		break
	}
	number := strings.ReplaceAll(text[:end], ",", "")
	if number == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(number, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
