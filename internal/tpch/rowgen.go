package tpch

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// validChar mirrors the character set used by the reference column-value
// generator for free-text fields.
const validChar = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ ,.!?"

const epoch = 694_224_000 // 1992-01-01, seconds since Unix epoch

// rngForRow returns a PRNG seeded purely from (table, scale factor, row
// id). Seeding never depends on the chunk a row happens to fall into, so
// re-partitioning the same (table, scale_factor) into a different number
// of parts reproduces byte-identical rows: concatenation of any
// partitioning equals the single-producer baseline.
func rngForRow(t Table, sf float64, rowID uint64) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%g|%d", int(t), sf, rowID)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func randomString(rng *rand.Rand, minLen, maxLen int) string {
	n := minLen
	if maxLen > minLen {
		n += rng.Intn(maxLen - minLen + 1)
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = validChar[rng.Intn(len(validChar))]
	}
	return string(buf)
}

func randomPhone(rng *rand.Rand, nationKey int64) string {
	return fmt.Sprintf("%02d-%03d-%03d-%04d", 10+nationKey%90, 100+rng.Intn(900), 100+rng.Intn(900), rng.Intn(10000))
}

// decimal is a fixed-point value with two fractional digits, stored as the
// scaled integer (value * 100), matching the Parquet sink's Int64/scale=2
// representation and the tbl/csv sink's "%d.%02d" formatting.
type decimal int64

func newDecimal(whole, cents int64) decimal {
	return decimal(whole*100 + cents)
}

func (d decimal) String() string {
	v, sign := int64(d), ""
	if v < 0 {
		v, sign = -v, "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func randomDecimal(rng *rand.Rand, minCents, maxCents int64) decimal {
	if maxCents <= minCents {
		return decimal(minCents)
	}
	return decimal(minCents + rng.Int63n(maxCents-minCents))
}

// date is days since the Unix epoch.
type date int32

func (d date) String() string {
	// Gregorian civil-from-days conversion (Howard Hinnant's algorithm),
	// avoiding a time.Time allocation per row.
	z := int64(d) + 719468
	era := z / 146097
	if z < 0 {
		era = (z - 146096) / 146097
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
		y++
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, month, day)
}

func randomDate(rng *rand.Rand, startDays, spanDays int32) date {
	if spanDays <= 0 {
		return date(startDays)
	}
	return date(startDays + rng.Int31n(spanDays))
}
