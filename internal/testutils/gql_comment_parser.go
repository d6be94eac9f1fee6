package testutils

import (
	"fmt"
	"regexp"
)

// fixture files carry their setup in comments:
//
//	# schema: starwars.graphqls
//	# option:addTypename: true

func FindSchemaFileName(t TestingT, source string) string {
	t.Helper()

	value, ok := findDirective(t, "(?m)^# schema:\\s*([^\\s]+)$", source)
	if !ok {
		t.Fatal("schema file directive mismatch")
	}

	return value
}

func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	value, ok := findDirective(t, fmt.Sprintf("(?m)^# option:%s:\\s*([^\\s]+)$", regexp.QuoteMeta(optionName)), source)
	if !ok {
		t.Logf("option %s value is not found", optionName)
		return ""
	}

	return value
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	return FindOptionString(t, optionName, source) == "true"
}

func findDirective(t TestingT, pattern, source string) (string, bool) {
	t.Helper()

	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		return "", false
	}

	return ss[1], true
}
