// Package render serves landing pages with tracking and pixel snippets spliced into the author's HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/prometeylabs/lander/internal/models"
)

const (
	FragmentPixelScripts  = "pixel_scripts.html"
	FragmentPixelNoscript = "pixel_noscript.html"
	FragmentTracking      = "tracking_script.html"
)

//go:embed fragments/*.html
var embedded embed.FS

// TrackingContext is what the tracking script needs to report back for one render.
type TrackingContext struct {
	VisitID        string
	LandingPageID  string
	CSRFToken      string
	TrackURL       string
	InteractionURL string
	SubmitURL      string
}

type fragmentData struct {
	TrackingContext
	GooglePixelID   string
	FacebookPixelID string
}

// Injector merges a page with its fragments. Fragment templates are parsed once and reused.
type Injector struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewInjector uses the bundled fragments.
func NewInjector() *Injector {
	sub, err := fs.Sub(embedded, "fragments")
	if err != nil {
		panic(err)
	}
	return NewInjectorFS(sub)
}

// NewInjectorFS reads fragments from fsys.
func NewInjectorFS(fsys fs.FS) *Injector {
	return &Injector{fsys: fsys, cache: map[string]*template.Template{}}
}

// Render returns the page HTML with robots meta, page CSS/JS, pixels and the tracking script
// inserted. Any fragment failure fails the whole render.
func (i *Injector) Render(page *models.LandingPage, tc TrackingContext) (string, error) {
	data := fragmentData{
		TrackingContext: tc,
		GooglePixelID:   page.GooglePixelID,
		FacebookPixelID: page.FacebookPixelID,
	}
	if data.LandingPageID == "" {
		data.LandingPageID = page.ID
	}

	pixels, err := i.execute(FragmentPixelScripts, data)
	if err != nil {
		return "", err
	}
	noscript, err := i.execute(FragmentPixelNoscript, data)
	if err != nil {
		return "", err
	}
	tracking, err := i.execute(FragmentTracking, data)
	if err != nil {
		return "", err
	}

	robots := `<meta name="robots" content="` + template.HTMLEscapeString(page.MetaRobots) + `">`
	return splice(page.HTMLContent, parts{
		head:     robots + "\n" + wrap("style", page.CSSContent) + "\n" + pixels,
		noscript: noscript,
		tail:     wrap("script", page.JSContent) + "\n" + tracking,
	}), nil
}

func (i *Injector) execute(name string, data fragmentData) (string, error) {
	tpl, err := i.fragment(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render fragment %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (i *Injector) fragment(name string) (*template.Template, error) {
	i.mu.RLock()
	tpl := i.cache[name]
	i.mu.RUnlock()
	if tpl != nil {
		return tpl, nil
	}

	tpl, err := template.ParseFS(i.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load fragment %s: %w", name, err)
	}
	i.mu.Lock()
	i.cache[name] = tpl
	i.mu.Unlock()
	return tpl, nil
}

func wrap(tag, content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return "<" + tag + ">\n" + content + "\n</" + tag + ">"
}

type parts struct {
	head     string
	noscript string
	tail     string
}

type insertion struct {
	at   int
	text string
}

// splice inserts each part exactly once. The head part goes before the first </head> or into a
// synthesized head. The tail goes before the first </body>; the noscript part right after the
// opening <body> tag. Documents without body tags are wrapped in a synthesized body.
func splice(content string, p parts) string {
	headClose := indexFold(content, "</head>")
	bodyClose := indexFold(content, "</body>")
	bodyOpen := bodyOpenEnd(content)
	if bodyClose >= 0 && bodyOpen > bodyClose {
		bodyOpen = -1
	}

	var prefix string
	var ins []insertion
	if headClose >= 0 {
		ins = append(ins, insertion{headClose, p.head + "\n"})
	} else {
		prefix = "<head>\n" + p.head + "\n</head>\n"
	}

	switch {
	case bodyClose >= 0:
		ins = append(ins, insertion{bodyClose, p.tail + "\n"})
		if bodyOpen >= 0 {
			ins = append(ins, insertion{bodyOpen, "\n" + p.noscript})
		} else {
			prefix += p.noscript + "\n"
		}
	case bodyOpen >= 0:
		ins = append(ins, insertion{bodyOpen, "\n" + p.noscript}, insertion{len(content), "\n" + p.tail})
	}

	out := apply(content, ins)
	if bodyClose < 0 && bodyOpen < 0 {
		out = "<body>\n" + p.noscript + "\n" + out + "\n" + p.tail + "\n</body>"
	}
	return prefix + out
}

func apply(content string, ins []insertion) string {
	if len(ins) == 0 {
		return content
	}
	sort.SliceStable(ins, func(a, b int) bool { return ins[a].at < ins[b].at })

	var b strings.Builder
	size := len(content)
	for _, in := range ins {
		size += len(in.text)
	}
	b.Grow(size)

	last := 0
	for _, in := range ins {
		b.WriteString(content[last:in.at])
		b.WriteString(in.text)
		last = in.at
	}
	b.WriteString(content[last:])
	return b.String()
}

// indexFold is strings.Index with ASCII case folding. needle must be ASCII.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if asciiEqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func asciiEqualFold(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// bodyOpenEnd returns the offset just past the first opening <body ...> tag, or -1.
func bodyOpenEnd(s string) int {
	from := 0
	for {
		i := indexFold(s[from:], "<body")
		if i < 0 {
			return -1
		}
		i += from
		next := i + len("<body")
		if next < len(s) {
			switch s[next] {
			case '>', ' ', '\t', '\n', '\r', '\f', '/':
				if end := strings.IndexByte(s[next:], '>'); end >= 0 {
					return next + end + 1
				}
				return -1
			}
		}
		from = next
	}
}
