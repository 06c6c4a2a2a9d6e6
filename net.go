package conformity

import "github.com/asaskevich/govalidator"

// IPv4AddressField validates dotted-quad IPv4 addresses.
type IPv4AddressField struct {
	description string
}

// IPv4Address returns a field that validates IPv4 addresses.
func IPv4Address() *IPv4AddressField {
	return &IPv4AddressField{}
}

// Description attaches a human-readable description.
func (f *IPv4AddressField) Description(s string) *IPv4AddressField { f.description = s; return f }

func (f *IPv4AddressField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	if !govalidator.IsIPv4(s) {
		return invalid("Not a valid IPv4 address")
	}
	return nil
}

func (f *IPv4AddressField) Introspect() Introspection {
	doc := Introspection{"type": "ipv4_address"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// IPv6AddressField validates IPv6 addresses.
type IPv6AddressField struct {
	description string
}

// IPv6Address returns a field that validates IPv6 addresses.
func IPv6Address() *IPv6AddressField {
	return &IPv6AddressField{}
}

// Description attaches a human-readable description.
func (f *IPv6AddressField) Description(s string) *IPv6AddressField { f.description = s; return f }

func (f *IPv6AddressField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	if !govalidator.IsIPv6(s) {
		return invalid("Not a valid IPv6 address")
	}
	return nil
}

func (f *IPv6AddressField) Introspect() Introspection {
	doc := Introspection{"type": "ipv6_address"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// IPAddressField validates addresses of either family.
type IPAddressField struct {
	description string
}

// IPAddress returns a field that accepts IPv4 or IPv6 addresses. On
// failure both families' errors are reported, like [Any].
func IPAddress() *IPAddressField {
	return &IPAddressField{}
}

// Description attaches a human-readable description.
func (f *IPAddressField) Description(s string) *IPAddressField { f.description = s; return f }

func (f *IPAddressField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	if govalidator.IsIP(s) {
		return nil
	}
	return []Error{
		{Code: CodeInvalid, Message: "Not a valid IPv4 address"},
		{Code: CodeInvalid, Message: "Not a valid IPv6 address"},
	}
}

func (f *IPAddressField) Introspect() Introspection {
	doc := Introspection{"type": "ip_address"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
