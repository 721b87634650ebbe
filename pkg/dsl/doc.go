/*
Package dsl provides a fluent builder for formflow questionnaires.

It lets a document type declare its questions and rules in Go instead of YAML.
Node construction validates the answer type immediately; rule methods append in
order and return the same builder so rules chain naturally.

Example usage:

	b := dsl.New("household")

	b.Question(dsl.NodeConfig{Key: "married", Type: "BOOLEAN", Field: "married", Initial: true}).
		IfTrue("spouse").
		IfFalse("age")

	b.Question(dsl.NodeConfig{Key: "spouse", Type: "STRING", Field: "spouseName"}).
		GoTo("age")

	b.Question(dsl.NodeConfig{Key: "age", Type: "NUMERIC", Field: "age"}).
		IfGreaterThanOrEqualTo(18, "adult").
		IfLessThanOrEqualTo(17, "minor")

	b.Question(dsl.NodeConfig{Key: "adult", Type: "NONE", Final: true})
	b.Question(dsl.NodeConfig{Key: "minor", Type: "NONE", Final: true})

	s, err := b.Build()
*/
package dsl
