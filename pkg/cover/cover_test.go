package cover

import (
	"math"
	"testing"

	"github.com/matzehuels/globecover/pkg/errors"
)

const eps = 1e-12

func TestGenerateInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -500} {
		pts, err := Generate(n)
		if err == nil {
			t.Fatalf("Generate(%d) should fail", n)
		}
		if !errors.Is(err, errors.ErrCodeInvalidParameter) {
			t.Errorf("Generate(%d) code = %v, want %v", n, errors.GetCode(err), errors.ErrCodeInvalidParameter)
		}
		if pts != nil {
			t.Errorf("Generate(%d) should return no points, got %d", n, len(pts))
		}
	}
}

func TestGeneratePolesOnly(t *testing.T) {
	for _, n := range []int{1, 2} {
		pts, err := Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if len(pts) != 2 {
			t.Fatalf("Generate(%d) returned %d points, want 2", n, len(pts))
		}
		if pts[0] != North || pts[1] != South {
			t.Errorf("Generate(%d) = %v, want [north south]", n, pts)
		}
	}
}

func TestGenerateFourPoints(t *testing.T) {
	pts, err := Generate(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 6 {
		t.Fatalf("got %d points, want 6", len(pts))
	}

	want := []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}
	for i, w := range want {
		if pts[i].Elevation != 0 {
			t.Errorf("point %d elevation = %v, want 0", i, pts[i].Elevation)
		}
		if math.Abs(pts[i].Azimuth-w) > eps {
			t.Errorf("point %d azimuth = %v, want %v", i, pts[i].Azimuth, w)
		}
	}
	if pts[4] != North || pts[5] != South {
		t.Errorf("poles = %v %v, want north then south", pts[4], pts[5])
	}
}

func TestRungCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 1},
		{4, 1},
		{5, 1}, // 2.5 rounds to even
		{6, 2},
		{7, 3},
		{8, 3},
		{500, 249},
	}
	for _, tt := range tests {
		if got := RungCount(tt.n); got != tt.want {
			t.Errorf("RungCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCountProperty(t *testing.T) {
	for n := 3; n <= 120; n++ {
		pts, err := Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}

		want := 2 + PointsOnRung(n, 0)
		for r := 1; r < RungCount(n); r++ {
			want += 2 * PointsOnRung(n, r)
		}
		if len(pts) != want {
			t.Errorf("Generate(%d) returned %d points, formula gives %d", n, len(pts), want)
		}

		total, err := Total(n)
		if err != nil {
			t.Fatal(err)
		}
		if total != len(pts) {
			t.Errorf("Total(%d) = %d, Generate returned %d", n, total, len(pts))
		}
	}
}

func TestReferenceCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{3, 5},
		{5, 7},
		{6, 18},
		{7, 31},
		{8, 36},
		{10, 60},
		{100, 6366},
		{DefaultEquatorialCount, 159146},
	}
	for _, tt := range tests {
		pts, err := Generate(tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if len(pts) != tt.want {
			t.Errorf("Generate(%d) returned %d points, want %d", tt.n, len(pts), tt.want)
		}
	}
}

func TestRangeInvariant(t *testing.T) {
	limit := 1000
	if testing.Short() {
		limit = 150
	}
	for n := 1; n <= limit; n++ {
		pts, err := Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		for i, p := range pts {
			if !(p.Azimuth > -math.Pi && p.Azimuth <= math.Pi) {
				t.Fatalf("N=%d point %d azimuth %v outside (-π, π]", n, i, p.Azimuth)
			}
			if p.Elevation < -math.Pi/2 || p.Elevation > math.Pi/2 {
				t.Fatalf("N=%d point %d elevation %v outside [-π/2, π/2]", n, i, p.Elevation)
			}
		}
	}
}

func TestPolePresence(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 9, 64, 333, 500} {
		pts, err := Generate(n)
		if err != nil {
			t.Fatal(err)
		}
		north, south := 0, 0
		for _, p := range pts {
			switch p.Elevation {
			case math.Pi / 2:
				north++
			case -math.Pi / 2:
				south++
			}
		}
		if north != 1 || south != 1 {
			t.Errorf("N=%d: %d north and %d south poles, want 1 each", n, north, south)
		}
		if pts[len(pts)-2] != North || pts[len(pts)-1] != South {
			t.Errorf("N=%d: poles must close the sequence, north first", n)
		}
	}
}

func TestMirrorSymmetry(t *testing.T) {
	for _, n := range []int{7, 50, 500} {
		pts, err := Generate(n)
		if err != nil {
			t.Fatal(err)
		}

		type key struct{ sig, psi float64 }
		seen := make(map[key]bool, len(pts))
		for _, p := range pts {
			seen[key{p.Azimuth, p.Elevation}] = true
		}

		for i, p := range pts {
			if p.IsPole() || p.Elevation <= 0 {
				continue
			}
			want := key{mirror(p.Azimuth), -p.Elevation}
			if !seen[want] {
				t.Fatalf("N=%d: no mirror for point %d %+v", n, i, p)
			}
			next := pts[i+1]
			if next.Elevation != -p.Elevation || next.Azimuth != want.sig {
				t.Fatalf("N=%d: point %d not followed by its mirror: %+v then %+v", n, i, p, next)
			}
		}
	}
}

func TestEquatorNotMirrored(t *testing.T) {
	pts, err := Generate(500)
	if err != nil {
		t.Fatal(err)
	}
	equator := 0
	for _, p := range pts {
		if p.Elevation == 0 {
			equator++
		}
	}
	if equator != 500 {
		t.Errorf("equator has %d points, want 500", equator)
	}
}

func TestMonotonicDensity(t *testing.T) {
	for _, n := range []int{3, 4, 17, 120, 500, 999} {
		rungs, err := Plan(n)
		if err != nil {
			t.Fatal(err)
		}
		if len(rungs) != RungCount(n) {
			t.Fatalf("N=%d: Plan returned %d rungs, want %d", n, len(rungs), RungCount(n))
		}
		for i, r := range rungs {
			if r.Count < MinPointsPerRung {
				t.Errorf("N=%d rung %d has %d points, below floor", n, i, r.Count)
			}
			if i > 0 && r.Count > rungs[i-1].Count {
				t.Errorf("N=%d rung %d has %d points, more than rung %d (%d)", n, i, r.Count, i-1, rungs[i-1].Count)
			}
			if r.Index != i {
				t.Errorf("N=%d rung %d has index %d", n, i, r.Index)
			}
		}
	}
}

func TestPlanSchedule(t *testing.T) {
	rungs, err := Plan(500)
	if err != nil {
		t.Fatal(err)
	}
	if rungs[0].Start != 0 {
		t.Errorf("equator must start at azimuth 0, got %v", rungs[0].Start)
	}
	if rungs[0].Count != 500 {
		t.Errorf("equator count = %d, want 500", rungs[0].Count)
	}
	if got := rungs[len(rungs)-1].Count; got != 6 {
		t.Errorf("last rung count = %d, want 6", got)
	}

	distinct := make(map[float64]bool)
	for _, r := range rungs {
		distinct[r.Start] = true
		if !(r.Start > -math.Pi && r.Start <= math.Pi) {
			t.Fatalf("rung %d start %v outside (-π, π]", r.Index, r.Start)
		}
		if math.Abs(r.Step*float64(r.Count)-2*math.Pi) > 1e-9 {
			t.Errorf("rung %d step %v does not divide the circle into %d", r.Index, r.Step, r.Count)
		}
	}
	if len(distinct) < len(rungs)/2 {
		t.Errorf("rung starts look aligned: %d distinct of %d", len(distinct), len(rungs))
	}
}

func TestPointsOnRung(t *testing.T) {
	tests := []struct {
		n, r int
		want int
	}{
		{8, 0, 8},
		{8, 1, 7},
		{8, 2, 6},
		{8, 3, 0}, // beyond the last rung
		{8, -1, 0},
		{2, 0, 0},
		{0, 0, 0},
		{500, 248, 6},
	}
	for _, tt := range tests {
		if got := PointsOnRung(tt.n, tt.r); got != tt.want {
			t.Errorf("PointsOnRung(%d, %d) = %d, want %d", tt.n, tt.r, got, tt.want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	a, err := Generate(500)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(500)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if math.Float64bits(a[i].Azimuth) != math.Float64bits(b[i].Azimuth) ||
			math.Float64bits(a[i].Elevation) != math.Float64bits(b[i].Elevation) {
			t.Fatalf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"negative zero", math.Copysign(0, -1), 0},
		{"pi stays", math.Pi, math.Pi},
		{"minus pi folds", -math.Pi, math.Pi},
		{"just below minus pi", -math.Pi - 0.5, math.Pi - 0.5},
		{"full turn", 2 * math.Pi, 0},
		{"three halves", 3 * math.Pi / 2, -math.Pi / 2},
		{"negative three halves", -3 * math.Pi / 2, math.Pi / 2},
		{"many turns", 10*math.Pi + 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !(got > -math.Pi && got <= math.Pi) {
				t.Errorf("Normalize(%v) = %v outside (-π, π]", tt.in, got)
			}
		})
	}

	if !math.IsNaN(Normalize(math.Inf(1))) {
		t.Error("Normalize(+Inf) should be NaN")
	}
}

func TestPointDegrees(t *testing.T) {
	if got := North.ElevationDegrees(); got != 90 {
		t.Errorf("north elevation = %v degrees, want 90", got)
	}
	if got := South.ElevationDegrees(); got != -90 {
		t.Errorf("south elevation = %v degrees, want -90", got)
	}
	p := Point{Azimuth: -math.Pi / 2}
	if got := p.AzimuthDegrees(); math.Abs(got+90) > eps {
		t.Errorf("azimuth = %v degrees, want -90", got)
	}
	if p.IsPole() {
		t.Error("equatorial point reported as pole")
	}
}

func TestPointLatLon(t *testing.T) {
	tests := []struct {
		p    Point
		want LatLon
	}{
		{North, LatLon{Lat: 90, Lon: 0}},
		{South, LatLon{Lat: -90, Lon: 0}},
		{Point{Azimuth: math.Pi, Elevation: 0}, LatLon{Lat: 0, Lon: 180}},
		{Point{Azimuth: -math.Pi / 2, Elevation: math.Pi / 4}, LatLon{Lat: 45, Lon: -90}},
	}
	for _, tt := range tests {
		got := tt.p.LatLon()
		if math.Abs(got.Lat-tt.want.Lat) > eps || math.Abs(got.Lon-tt.want.Lon) > eps {
			t.Errorf("%+v.LatLon() = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Generate(DefaultEquatorialCount); err != nil {
			b.Fatal(err)
		}
	}
}
