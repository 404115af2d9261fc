// Package rules selects and normalizes upstream secret-detection rule
// records into the five-field form the scanner plugin consumes.
//
// # Selection
//
// A record is kept when it has a `regex` key and a `keywords` key
// (presence, not value: an empty keyword list is kept) and its `id` is not
// in the exclusion list. The default exclusion list holds
// `generic-api-key`, whose pattern matches far too much ordinary code.
//
// A record that passes those checks must also carry `id` and
// `description`. What happens when one is missing depends on the
// MissingFieldPolicy: PolicyFail aborts the run, PolicySkip drops the
// record and counts it in the Report.
//
// # Normalization
//
// Fields are copied through as-is. `entropy` is the only optional field
// and is represented as a nil pointer when absent, which encodes as JSON
// null so the key is always present.
//
//	[[rules]]
//	id = "aws-access-token"
//	description = "AWS access token"
//	regex = '''(?:A3T[A-Z0-9]|AKIA|ASIA|ABIA|ACCA)[A-Z0-9]{16}'''
//	entropy = 3
//	keywords = ["akia", "asia"]
package rules
