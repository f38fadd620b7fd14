/*
Package dsl provides a fluent Go builder for canvas graphs.

It replaces hand-written node and edge literals in tests, examples and
generators. Edges are declared from the source node and resolved when the
graph is built, so nodes may be added in any order.

Example usage:

	b := dsl.New()

	b.Add("fetch").Type("http").Name("Fetch").At(0, 0).Out("out").
		Go("summarize")

	b.Frame("post").Name("Post-process").At(260, -40).Size(640, 200)

	b.Add("summarize").Type("llm").At(300, 0).In("in").Out("out").
		Within("post").
		Go("notify")

	b.Add("notify").Type("email").At(600, 0).In("in").Within("post")

	g, err := b.Build() // domain.Graph, validated
*/
package dsl
