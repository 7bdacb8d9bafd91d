package domain_test

import (
	"testing"
	"time"

	"baanmae/internal/domain"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap(t *testing.T) {
	// existing booking occupies [2024-06-01, 2024-06-10]
	es, ee := d("2024-06-01"), d("2024-06-10")

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical range", d("2024-06-01"), d("2024-06-10"), true},
		{"candidate starts on existing end", d("2024-06-10"), d("2024-06-15"), true},
		{"candidate ends on existing start", d("2024-05-25"), d("2024-06-01"), true},
		{"strictly before", d("2024-05-01"), d("2024-05-31"), false},
		{"strictly after", d("2024-06-11"), d("2024-06-20"), false},
		{"candidate contains existing", d("2024-05-20"), d("2024-06-20"), true},
		{"candidate inside existing", d("2024-06-03"), d("2024-06-07"), true},
		{"overlaps start edge", d("2024-05-28"), d("2024-06-03"), true},
		{"overlaps end edge", d("2024-06-08"), d("2024-06-14"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.RangesOverlap(tc.start, tc.end, es, ee); got != tc.want {
				t.Fatalf("RangesOverlap(%s, %s) = %v, want %v",
					tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}
