package sweep

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/galaxy/internal/galaxy"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{"spin=-1:1:0.5", Axis{Key: "spin", Values: []float64{-1, -0.5, 0, 0.5, 1}}},
		{"branches=3,5,7", Axis{Key: "branches", Values: []float64{3, 5, 7}}},
		{"randomness=0:0.3:0.1", Axis{Key: "randomness", Values: []float64{0, 0.1, 0.2, 0.3}}},
		{"radius=2:3:5", Axis{Key: "radius", Values: []float64{2}}},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if err != nil {
			t.Errorf("ParseAxis(%q) failed: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAxis(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseAxisErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"spin", ErrBadAxis},
		{"spin=", ErrBadAxis},
		{"spin=1:0:0.1", ErrBadAxis},
		{"spin=0:1:0", ErrBadAxis},
		{"spin=0:1:0.0001", ErrBadAxis},
		{"spin=a,b", ErrBadAxis},
		{"warp=1,2", galaxy.ErrUnknownParam},
		{"spin=-10:10:1", ErrBadAxis},
		{"branches=1,3", ErrBadAxis},
		{"randomness_power=5,11", ErrBadAxis},
		{"count=50,1000", ErrBadAxis},
	}
	for _, tt := range tests {
		if _, err := ParseAxis(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("ParseAxis(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestCells(t *testing.T) {
	g := NewGridSearch([]Axis{
		{Key: "branches", Values: []float64{2, 3}},
		{Key: "spin", Values: []float64{0, 1, 2}},
	})
	cells := g.Cells()
	if len(cells) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(cells))
	}
	if cells[0]["branches"] != 2 || cells[0]["spin"] != 0 {
		t.Errorf("unexpected first cell %v", cells[0])
	}
	if cells[5]["branches"] != 3 || cells[5]["spin"] != 2 {
		t.Errorf("unexpected last cell %v", cells[5])
	}
}

func TestSearchPrefersTightArms(t *testing.T) {
	base := galaxy.DefaultParams()
	base.Count = 5000
	base.Seed = 11
	g := NewGridSearch([]Axis{{Key: "randomness", Values: []float64{1, 0, 0.5}}})

	res, err := g.Search(context.Background(), base, "arm_contrast")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(res.Points))
	}
	if res.Best.Values["randomness"] != 0 {
		t.Errorf("expected randomness 0 to win, got %v", res.Best.Values)
	}

	g.Minimize = true
	res, err = g.Search(context.Background(), base, "arm_contrast")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Best.Values["randomness"] == 0 {
		t.Error("minimizing should not pick the tightest arms")
	}
}

func TestSearchErrors(t *testing.T) {
	base := galaxy.DefaultParams()
	if _, err := NewGridSearch(nil).Search(context.Background(), base, "arm_contrast"); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
	g := NewGridSearch([]Axis{{Key: "spin", Values: []float64{1}}})
	if _, err := g.Search(context.Background(), base, "beauty"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}
