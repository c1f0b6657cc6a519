package codegen

import "strings"

// RouteVariable derives the aggregator identifier for a module/version pair:
// module, version with the first letter capitalized, and the "Routes" suffix.
// ("roles", "v1") yields "rolesV1Routes".
func RouteVariable(module, version string) string {
	return module + capitalize(version) + "Routes"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
