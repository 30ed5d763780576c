package view

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"initial":    Initial,
		"websiteURL": WebsiteURL,
	}
}

// Initial returns the first character of name, as shown in the user avatar.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}

// WebsiteURL turns a bare website such as "hildegard.org" into an http link.
// Internationalised hosts are converted to their ASCII form. An empty string
// means the website cannot be linked.
func WebsiteURL(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	for _, scheme := range []string{"http://", "https://"} {
		if len(website) >= len(scheme) && strings.EqualFold(website[:len(scheme)], scheme) {
			website = website[len(scheme):]
			break
		}
	}

	host, path, _ := strings.Cut(website, "/")
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == "" {
		return ""
	}
	if path != "" {
		return "http://" + ascii + "/" + path
	}
	return "http://" + ascii
}
