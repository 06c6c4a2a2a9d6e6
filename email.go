package conformity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Dot-atom rule for the local part, RFC 5322 without the quoted-string
// form.
var emailLocalPart = regexp.MustCompile(
	"^[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+)*$",
)

// EmailAddressField validates email addresses.
type EmailAddressField struct {
	allowedDomains map[string]struct{}
	description    string
}

// EmailAddress returns a field that validates email addresses. The local
// part must be a dot-atom; the domain must be a DNS name or an IP
// literal in brackets. Errors point at the offending part.
func EmailAddress() *EmailAddressField {
	return &EmailAddressField{allowedDomains: map[string]struct{}{}}
}

// AllowDomains accepts the given domains without further checks, for
// internal hosts that are not resolvable DNS names. Matching is
// case-insensitive.
func (f *EmailAddressField) AllowDomains(domains ...string) *EmailAddressField {
	for _, d := range domains {
		f.allowedDomains[strings.ToLower(d)] = struct{}{}
	}
	return f
}

// Description attaches a human-readable description.
func (f *EmailAddressField) Description(s string) *EmailAddressField { f.description = s; return f }

func (f *EmailAddressField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return invalid("Not a valid email address (missing @ sign)")
	}
	local, domain := s[:at], s[at+1:]
	if !emailLocalPart.MatchString(local) {
		return []Error{{
			Code:    CodeInvalid,
			Message: "Not a valid email address (invalid local user field)",
			Pointer: local,
		}}
	}
	if _, allowed := f.allowedDomains[strings.ToLower(domain)]; allowed {
		return nil
	}
	if !validDomainPart(domain) {
		return []Error{{
			Code:    CodeInvalid,
			Message: "Not a valid email address (invalid domain field)",
			Pointer: domain,
		}}
	}
	return nil
}

// validDomainPart accepts DNS names and bracketed IP literals,
// including the "[IPv6:...]" form.
func validDomainPart(domain string) bool {
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		literal := strings.TrimSuffix(strings.TrimPrefix(domain, "["), "]")
		literal = strings.TrimPrefix(literal, "IPv6:")
		return govalidator.IsIP(literal)
	}
	if domain == "" {
		return false
	}
	return govalidator.IsDNSName(domain)
}

func (f *EmailAddressField) Introspect() Introspection {
	doc := Introspection{"type": "email_address"}
	if len(f.allowedDomains) > 0 {
		domains := make([]string, 0, len(f.allowedDomains))
		for d := range f.allowedDomains {
			domains = append(domains, d)
		}
		sort.Strings(domains)
		doc["allowed_domains"] = domains
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
