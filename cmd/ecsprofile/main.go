// Profiling:
// go build ./cmd/ecsprofile
// ./ecsprofile -mode mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./ecsprofile mem.pprof

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
	"github.com/pkg/profile"
)

func main() {
	mode := flag.String("mode", "mem", "profile mode: mem or cpu")
	rounds := flag.Int("rounds", 50, "number of fresh registries")
	iters := flag.Int("iters", 1000, "create/destroy cycles per registry")
	entities := flag.Int("entities", 1000, "entities per cycle")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "mem":
		opt = profile.MemProfileAllocs
	case "cpu":
		opt = profile.CPUProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *iters, *entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	handles := make([]ecs.Handle, 0, numEntities)
	for range rounds {
		reg := ecs.NewRegistry(nil)
		for range iters {
			for range numEntities {
				h, err := reg.Create(
					ecs.With(component.Position{}),
					ecs.With(component.Velocity{X: 1, Y: 1}),
				)
				if err != nil {
					panic(err)
				}
				handles = append(handles, h)
			}
			ecs.Each2(reg, func(_ ecs.Handle, p *component.Position, v *component.Velocity) {
				p.X += v.X
				p.Y += v.Y
			})
			for _, h := range handles {
				reg.Destroy(h)
			}
			handles = handles[:0]
		}
	}
}
