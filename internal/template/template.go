package template

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

//go:embed views/*.html
var Views embed.FS

type Template struct {
	templates *stdtemplate.Template
	ugc       *bluemonday.Policy
}

func NewTemplate(fsys fs.FS) (*Template, error) {
	t := &Template{ugc: bluemonday.UGCPolicy()}
	funcMap := stdtemplate.FuncMap{
		"markdown": t.MarkdownToHTML,
		"humannumber": func(v string) string {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			return humanize.Commaf(f)
		},
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
		"stringTitle": stringTitle,
		// jobSeeker -> Job Seeker
		"humanizeKey": func(s string) string {
			var b strings.Builder
			for i, r := range s {
				if i > 0 && unicode.IsUpper(r) {
					b.WriteByte(' ')
				}
				b.WriteRune(r)
			}
			return stringTitle(b.String())
		},
	}
	tmpl, err := stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(fsys, "views/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse views")
	}
	t.templates = tmpl
	return t, nil
}

func stringTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Render executes the named view into a buffer first so a template error
// never leaves a half written page behind.
func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	buf := &bytes.Buffer{}
	if err := t.templates.ExecuteTemplate(buf, name, data); err != nil {
		return errors.Wrapf(err, "unable to render %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// MarkdownToHTML renders user supplied markdown and strips anything unsafe
// from the result.
func (t *Template) MarkdownToHTML(s string) stdtemplate.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	out := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))
	return stdtemplate.HTML(t.ugc.SanitizeBytes(out))
}
