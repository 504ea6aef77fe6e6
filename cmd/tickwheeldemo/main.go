// Command tickwheeldemo wires a Config, a Wheel and a Driver together and
// schedules one one-shot and one periodic timer against real
// wall-clock time, to exercise the package the way a caller would.
package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	timingwheel "github.com/eidolon-systems/timingwheel"
)

func main() {
	cfg := timingwheel.Config{
		Levels:                  3,
		BucketsPerLevelLog2:     6,
		GranularityPerLevelLog2: 6,
	}
	w, err := timingwheel.New(cfg)
	if err != nil {
		log.Fatalf("timingwheel.New: %s", err)
	}

	const tick = 10 * time.Millisecond
	d, err := timingwheel.NewDriver(w, tick)
	if err != nil {
		log.Fatalf("timingwheel.NewDriver: %s", err)
	}

	log.Printf("wheel geometry: levels=%d buckets/level=%d tick=%s maxLifetime=%d ticks (%s)",
		cfg.Levels, 1<<cfg.BucketsPerLevelLog2, tick,
		w.MaxLifetime(), d.Duration(w.MaxLifetime()))

	var wg sync.WaitGroup
	wg.Add(1)

	var oneShot timingwheel.Timer
	oneShot.Init(func(t *timingwheel.Timer, arg interface{}) {
		log.Printf("one-shot timer fired at tick %d", w.Now())
		wg.Done()
	}, nil)
	oneShotLifetime := uint64(50)
	w.Schedule(oneShotLifetime, &oneShot)
	log.Printf("scheduled one-shot timer for %s from now", d.Duration(oneShotLifetime))

	var ticks int
	var periodic timingwheel.Timer
	const period = uint64(20)
	periodic.Init(func(t *timingwheel.Timer, arg interface{}) {
		ticks++
		log.Printf("periodic timer fired at tick %d (count=%d)", w.Now(), ticks)
		if ticks < 5 {
			w.Schedule(period, t)
		} else {
			wg.Done()
		}
	}, nil)
	wg.Add(1)
	w.Schedule(period, &periodic)

	d.Start()
	wg.Wait()
	d.Stop()

	fmt.Println("done")
}
