package email_scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "plain text",
			body: "contact us at a@b.com or noreply@b.com",
			want: []string{"a@b.com", "noreply@b.com"},
		},
		{
			name: "duplicates keep first-seen order",
			body: "x@acme.com y@acme.com x@acme.com",
			want: []string{"x@acme.com", "y@acme.com"},
		},
		{
			name: "case differences are distinct",
			body: "Sales@Acme.com sales@acme.com",
			want: []string{"Sales@Acme.com", "sales@acme.com"},
		},
		{
			name: "markup around addresses",
			body: `<a href="mailto:info@acme.com">info@acme.com</a><span>hr@acme.co.uk</span>`,
			want: []string{"info@acme.com", "hr@acme.co.uk"},
		},
		{
			name: "tld must be two letters",
			body: "bad@acme.c good@acme.io",
			want: []string{"good@acme.io"},
		},
		{
			name: "nothing",
			body: "no addresses here",
			want: nil,
		},
	}

	ex := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ex.Extract(tt.body))
		})
	}
}

func TestExtractMailto(t *testing.T) {
	body := `<html><body>
<a href="MAILTO:sales@acme.com?subject=hi">write</a>
<a href="mailto:a@acme.com,b@acme.com">both</a>
<a href="mailto:">empty</a>
<a href="/contact">contact</a>
</body></html>`

	ex := NewExtractor()
	assert.Equal(t, []string{"sales@acme.com", "a@acme.com", "b@acme.com"}, ex.ExtractMailto(body))
	assert.Nil(t, ex.ExtractMailto("<p>no links</p>"))
}

func TestExtractAllAppendsMailtoTargets(t *testing.T) {
	body := `<p>info@acme.com</p><a href="mailto:info@acme.com">x</a><a href="mailto:ceo&#64;acme.com">y</a>`
	assert.Equal(t, []string{"info@acme.com", "ceo@acme.com"}, NewExtractor().ExtractAll(body))
}
