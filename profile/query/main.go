// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"github.com/kouhe3/pyecs"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	rounds := 50
	iters := 10000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	c1 := pyecs.FactoryNewComponent[comp1]()
	c2 := pyecs.FactoryNewComponent[comp2]()

	for range rounds {
		schema := pyecs.Factory.NewSchema()
		storage := pyecs.Factory.NewStorage(schema)
		storage.NewEntities(numEntities, c1, c2)

		query := pyecs.Factory.NewQuery()
		node := query.And(c1, c2)
		cursor := pyecs.Factory.NewCursor(node, storage)

		for range iters {
			for cursor.Next() {
				a := c1.GetFromCursor(cursor)
				b := c2.GetFromCursor(cursor)
				a.V += b.V
				a.W += b.W
			}
		}
	}
}
