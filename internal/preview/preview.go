// Package preview is the metadata-fetch collaborator: given a URL, scrape
// the page's Open Graph / meta tags into a preview the save flow can seed
// item fields from. The contract is "bounded latency, never errors" — any
// failure (timeout, bad status, unparseable body) yields an empty Preview
// the user fills in manually.
package preview

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Preview is the page metadata extracted from a URL. The zero value means
// "nothing found".
type Preview struct {
	Title       string `json:"title,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
}

// Empty reports whether no metadata was found.
func (p Preview) Empty() bool {
	return p == Preview{}
}

// maxBodyBytes caps how much of a page is read while scanning for meta tags.
const maxBodyBytes = 1 << 20

// Client fetches page previews.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a preview client with the given per-fetch timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves and parses the page at rawURL. Never returns an error:
// on any failure the zero Preview comes back and the save flow proceeds
// with user-supplied fields.
func (c *Client) Fetch(ctx context.Context, rawURL string) Preview {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Preview{}
	}
	req.Header.Set("User-Agent", "tripstash-preview/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Preview{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Preview{}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return Preview{}
	}

	return parse(http.MaxBytesReader(nil, resp.Body, maxBodyBytes))
}

// parse walks the HTML token stream collecting og:/meta/title values.
// og: tags win over their plain-HTML fallbacks.
func parse(r interface{ Read([]byte) (int, error) }) Preview {
	var (
		p         Preview
		fallback  Preview
		inTitle   bool
		titleText strings.Builder
	)

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return merge(p, fallback, titleText.String())
		case html.TextToken:
			if inTitle {
				titleText.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = true
				continue
			}
			if tag == "body" {
				// Meta tags live in head; stop early
				return merge(p, fallback, titleText.String())
			}
			if tag != "meta" || !hasAttr {
				continue
			}

			var property, metaName, content string
			for {
				key, val, more := z.TagAttr()
				switch string(key) {
				case "property":
					property = string(val)
				case "name":
					metaName = string(val)
				case "content":
					content = string(val)
				}
				if !more {
					break
				}
			}
			if content == "" {
				continue
			}
			switch property {
			case "og:title":
				p.Title = content
			case "og:image":
				p.Image = content
			case "og:description":
				p.Description = content
			case "og:site_name":
				p.SiteName = content
			}
			if metaName == "description" {
				fallback.Description = content
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = false
			}
		}
	}
}

func merge(p, fallback Preview, title string) Preview {
	if p.Title == "" {
		p.Title = strings.TrimSpace(title)
	}
	if p.Description == "" {
		p.Description = fallback.Description
	}
	return p
}
