/*
Package formflow walks questionnaire flows and writes the collected answers into fillable PDF forms.

A form is a graph of question nodes. Each node names the answer it collects and carries an ordered list of rules; the first rule that matches the answers gathered so far picks the next node. When a final node is reached the answers are mapped to the template's fields and written as a uniquely named form<N>.pdf document.

# Concept

The engine separates the questionnaire (Schema) from the session (State) and from the side-effects of filling and storing documents (Filler, OutputWriter, NameReserver). The host drives the loop, so the same engine serves the terminal Runner and the stateless HTTP server.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/formflow"
		"github.com/aretw0/formflow/pkg/domain"
	)

	func main() {
		eng, err := formflow.New("i589",
			formflow.WithTemplateDir("./templates"),
			formflow.WithOutputDir("./published"),
		)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.Start(ctx, "session-123")
		if err != nil {
			log.Fatal(err)
		}

		// Informational nodes advance without an answer.
		state, _, err = eng.Submit(ctx, state, domain.Value{})
		if err != nil {
			log.Fatal(err)
		}
		state, _, err = eng.Submit(ctx, state, domain.String("Garcia"))
		if err != nil {
			log.Fatal(err)
		}

		// ...

		if state.Status == domain.StatusTerminated {
			name, err := eng.Materialize(ctx, state)
			if err != nil {
				log.Fatal(err)
			}
			log.Println("written", name)
		}
	}

For terminal use, NewRunner reads answers line by line and prints each prompt:

	final, err := formflow.NewRunner().Run(ctx, eng, nil)
*/
package formflow
