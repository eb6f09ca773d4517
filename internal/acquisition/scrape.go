package acquisition

import (
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// findMatchingLink returns the href of the first anchor whose href or
// visible text matches pattern.
func findMatchingLink(doc *goquery.Document, pattern *regexp.Regexp) (string, bool) {
	var href string
	var found bool
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		h, _ := sel.Attr("href")
		text := sel.Text()
		if pattern.MatchString(h) || pattern.MatchString(text) {
			href = h
			found = true
			return false
		}
		return true
	})
	return href, found
}

// findLicenseForm returns the first form on the page that carries an
// "agree" input, i.e. the vendor's license-acceptance form.
func findLicenseForm(doc *goquery.Document) *goquery.Selection {
	var form *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find(`input[name="agree"]`).Length() > 0 {
			form = sel
			return false
		}
		return true
	})
	return form
}

// formValues extracts every named input's current value from form,
// including hidden fields the license-agreement flow depends on.
func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			return
		}
		value, _ := sel.Attr("value")
		values.Set(name, value)
	})
	return values
}
