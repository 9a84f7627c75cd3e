package codec

import "strings"

// DMN model namespaces by specification version.
const (
	NamespaceDMN13 = "https://www.omg.org/spec/DMN/20191111/MODEL/"
	NamespaceDMN12 = "http://www.omg.org/spec/DMN/20180521/MODEL/"
	NamespaceDMN11 = "http://www.omg.org/spec/DMN/20151101/dmn.xsd"
)

// legacyNamespaces maps namespace signatures of schema versions this
// codec does not read to the version label used in error messages.
var legacyNamespaces = map[string]string{
	NamespaceDMN11: "1.1",
	"http://www.omg.org/spec/DMN/20130901": "1.0",
}

// LegacyVersion returns the DMN version label ("1.1", "1.0") if the raw
// text carries a known older schema namespace, and whether it does.
func LegacyVersion(xml string) (string, bool) {
	for ns, version := range legacyNamespaces {
		if strings.Contains(xml, ns) {
			return version, true
		}
	}
	return "", false
}
