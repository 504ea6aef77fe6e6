package timingwheel

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := [...]struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "ok single level",
			cfg:  Config{Levels: 1, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3},
			want: nil,
		},
		{
			name: "ok three levels",
			cfg:  Config{Levels: 3, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3},
			want: nil,
		},
		{
			name: "zero levels",
			cfg:  Config{Levels: 0, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3},
			want: ErrNoLevels,
		},
		{
			name: "negative levels",
			cfg:  Config{Levels: -1, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3},
			want: ErrNoLevels,
		},
		{
			name: "zero buckets log2",
			cfg:  Config{Levels: 2, BucketsPerLevelLog2: 0, GranularityPerLevelLog2: 0},
			want: ErrNoBucketsPerLevel,
		},
		{
			name: "granularity exceeds buckets",
			cfg:  Config{Levels: 2, BucketsPerLevelLog2: 3, GranularityPerLevelLog2: 4},
			want: ErrGranularityTooHigh,
		},
		{
			name: "granularity equal to buckets is fine",
			cfg:  Config{Levels: 2, BucketsPerLevelLog2: 4, GranularityPerLevelLog2: 4},
			want: nil,
		},
	}

	for _, tc := range tests {
		err := tc.cfg.validate()
		if tc.want == nil {
			if err != nil {
				t.Errorf("%s: validate(%+v) = %v, want nil\n", tc.name, tc.cfg, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: validate(%+v) = nil, want wrapping %v\n", tc.name, tc.cfg, tc.want)
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: validate(%+v) = %v, want wrapping %v\n", tc.name, tc.cfg, err, tc.want)
		}
	}
}

func TestNewGeometryMaxLifetime(t *testing.T) {
	// Worked example from the package design notes: 3 levels, 32 buckets
	// per level (B=2^5), granularity shift 3 (G=2^3=8).
	cfg := Config{Levels: 3, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3}
	g := newGeometry(cfg)

	const b = 32
	const topUnit = 1 << (2 * 3) // (Levels-1)*GranularityPerLevelLog2
	want := uint64((b-1)*topUnit - topUnit)
	if g.maxLifetime != want {
		t.Errorf("maxLifetime = %d, want %d\n", g.maxLifetime, want)
	}
}

func TestGeometryLevelReach(t *testing.T) {
	cfg := Config{Levels: 3, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3}
	g := newGeometry(cfg)

	// level 0 reach: (B-1) << 0
	if got, want := g.levelReach(0), uint64(31); got != want {
		t.Errorf("levelReach(0) = %d, want %d\n", got, want)
	}
	// level 1 reach: (B-1) << 3
	if got, want := g.levelReach(1), uint64(31<<3); got != want {
		t.Errorf("levelReach(1) = %d, want %d\n", got, want)
	}
	// level 2 reach: (B-1) << 6
	if got, want := g.levelReach(2), uint64(31<<6); got != want {
		t.Errorf("levelReach(2) = %d, want %d\n", got, want)
	}
}

func TestNewGeometrySingleLevelCutoff(t *testing.T) {
	// Single-level wheel from the design notes: topUnit collapses to 1,
	// so maxLifetime is (B-2).
	cfg := Config{Levels: 1, BucketsPerLevelLog2: 5, GranularityPerLevelLog2: 3}
	g := newGeometry(cfg)
	want := g.buckets - 2
	if g.maxLifetime != want {
		t.Errorf("single level maxLifetime = %d, want %d\n", g.maxLifetime, want)
	}
}
