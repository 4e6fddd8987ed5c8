package email_scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBlocklist(t *testing.T) {
	f := NewFilter(FilterOptions{})
	got := f.Filter([]string{"a@b.com", "noreply@b.com"}, "https://b.com")
	assert.Equal(t, []string{"a@b.com"}, got)

	for _, addr := range []string{
		"someone@example.com",
		"NoReply@acme.com",
		"do-not-reply@acme.com",
		"donotreply@acme.com",
		"info@yourdomain.com",
		"user@user.com",
		"jane@test.com",
		"email@email.com",
		"placeholder@acme.com",
	} {
		assert.Empty(t, f.Filter([]string{addr}, "https://acme.com"), addr)
	}
}

func TestFilterDomainAffinityPermissive(t *testing.T) {
	f := NewFilter(FilterOptions{})

	assert.Equal(t, []string{"ceo@acme.io"}, f.Filter([]string{"ceo@acme.io"}, "https://acme.io/contact"))
	// accepted only because the domain has two labels
	assert.Equal(t, []string{"random@totallyunrelated.biz"}, f.Filter([]string{"random@totallyunrelated.biz"}, "https://acme.io"))
	// host is a substring of the address domain
	assert.Equal(t, []string{"x@mail.acme.io"}, f.Filter([]string{"x@mail.acme.io"}, "https://acme.io"))
}

func TestFilterDomainAffinityStrict(t *testing.T) {
	f := NewFilter(FilterOptions{Strict: true})

	assert.Equal(t, []string{"ceo@acme.io"}, f.Filter([]string{"ceo@acme.io"}, "https://acme.io/contact"))
	assert.Empty(t, f.Filter([]string{"random@totallyunrelated.biz"}, "https://acme.io"))
	assert.Equal(t, []string{"hr@acme.co.uk"}, f.Filter([]string{"hr@acme.co.uk"}, "https://www.acme.co.uk/team"))
	assert.Equal(t, []string{"hr@eu.acme.com"}, f.Filter([]string{"hr@eu.acme.com"}, "https://shop.acme.com:8443/"))
}

func TestFilterTieBreak(t *testing.T) {
	in := []string{"zed@acme.com", "amy@acme.com"}

	first := NewFilter(FilterOptions{TieBreak: TieBreakFirstSeen})
	email, ok := first.First(in, "https://acme.com")
	assert.True(t, ok)
	assert.Equal(t, "zed@acme.com", email)

	lex := NewFilter(FilterOptions{TieBreak: TieBreakLexical})
	email, ok = lex.First(in, "https://acme.com")
	assert.True(t, ok)
	assert.Equal(t, "amy@acme.com", email)

	_, ok = lex.First(nil, "https://acme.com")
	assert.False(t, ok)
}

func TestFilterCustomBlocklist(t *testing.T) {
	f := NewFilter(FilterOptions{Blocklist: []string{" Careers@ "}})
	assert.Equal(t, []string{"noreply@acme.com"}, f.Filter([]string{"careers@acme.com", "noreply@acme.com"}, "https://acme.com"))
}
