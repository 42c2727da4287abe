package domain_test

import (
	"testing"
	"time"

	"orderflow/bizerror"
	"orderflow/domain"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestParseOrderDate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should accept every supported layout", func(t *testing.T) {
		want := types.TimestampOfDate(2025, time.March, 14, 0, 0, 0, 0, time.Local)

		for _, raw := range []string{"20250314", "2025/03/14", "03/14/2025", "2025-03-14", "03-14-2025"} {
			ts, err := domain.ParseOrderDate(raw)
			Expect(err).To(BeNil(), "input %s", raw)
			Expect(ts).To(Equal(want), "input %s", raw)
		}

		// day-first only parses when month-first cannot
		ts, err := domain.ParseOrderDate("14/03/2025")
		Expect(err).To(BeNil())
		Expect(ts).To(Equal(want))
		ts, err = domain.ParseOrderDate("14-03-2025")
		Expect(err).To(BeNil())
		Expect(ts).To(Equal(want))
	})

	t.Run("should resolve ambiguous input as month-first", func(t *testing.T) {
		ts, err := domain.ParseOrderDate("01/02/2025")
		Expect(err).To(BeNil())
		Expect(ts).To(Equal(types.TimestampOfDate(2025, time.January, 2, 0, 0, 0, 0, time.Local)))
	})

	t.Run("should truncate to midnight local time", func(t *testing.T) {
		ts, err := domain.ParseOrderDate("2025-07-01")
		Expect(err).To(BeNil())
		Expect(ts.Time().Hour()).To(BeZero())
		Expect(ts.Time().Minute()).To(BeZero())
		Expect(ts.Time().Location()).To(Equal(time.Local))
	})

	t.Run("should reject unparsable input", func(t *testing.T) {
		for _, raw := range []string{"", "not a date", "2025-13-01", "2025.03.14", "03/14/25"} {
			_, err := domain.ParseOrderDate(raw)
			Expect(err).To(Equal(bizerror.ErrInvalidDate), "input %s", raw)
		}
	})
}
