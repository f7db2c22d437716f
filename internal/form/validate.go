package form

import (
	"math"
	"regexp"
	"strconv"
)

type validator func(field Field, v string) string

var (
	emailRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

var validators = map[string]validator{
	"email": func(_ Field, v string) string {
		if !emailRe.MatchString(v) {
			return "Please enter a valid email address."
		}
		return ""
	},
	"phone": func(_ Field, v string) string {
		if !phoneRe.MatchString(v) {
			return "Please enter a valid 10-digit phone number."
		}
		return ""
	},
	"positive": func(field Field, v string) string {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return "Please enter a valid positive number for " + field.Label + "."
		}
		return ""
	},
	"oneof": func(field Field, v string) string {
		for _, o := range field.Options {
			if o == v {
				return ""
			}
		}
		return field.Label + " is not a valid choice."
	},
}
