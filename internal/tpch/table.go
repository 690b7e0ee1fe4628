// Package tpch implements the eight TPC-H table schemas and a deterministic
// row generator. The real dbgen row content algorithm is treated as an
// external collaborator by the pipeline this repo exists to demonstrate;
// this package supplies a concrete, pure-function stand-in so the CLI
// produces real, self-consistent output end to end.
package tpch

import "fmt"

// Table is the closed enumeration of the eight TPC-H tables.
type Table int

const (
	Nation Table = iota
	Region
	Part
	Supplier
	Partsupp
	Customer
	Orders
	Lineitem
)

// AllTables lists every table in conventional TPC-H load order.
var AllTables = []Table{Nation, Region, Part, Supplier, Partsupp, Customer, Orders, Lineitem}

var tableNames = map[Table]string{
	Nation:   "nation",
	Region:   "region",
	Part:     "part",
	Supplier: "supplier",
	Partsupp: "partsupp",
	Customer: "customer",
	Orders:   "orders",
	Lineitem: "lineitem",
}

// aliases maps the case-sensitive single-letter CLI alias to its table.
var aliases = map[string]Table{
	"nation": Nation, "n": Nation,
	"region": Region, "r": Region,
	"supplier": Supplier, "s": Supplier,
	"customer": Customer, "c": Customer,
	"part": Part, "P": Part,
	"partsupp": Partsupp, "S": Partsupp,
	"orders": Orders, "O": Orders,
	"lineitem": Lineitem, "L": Lineitem,
}

// ParseTable resolves a table name or its single-letter alias. Matching is
// case-sensitive: upper- and lower-case aliases name different tables
// (e.g. "S" is partsupp, "s" is supplier).
func ParseTable(name string) (Table, error) {
	if t, ok := aliases[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown table %q", name)
}

func (t Table) String() string {
	name, ok := tableNames[t]
	if !ok {
		return fmt.Sprintf("table(%d)", int(t))
	}
	return name
}

// Atomic reports whether a table is always generated as a single,
// unpartitioned chunk regardless of CLI partition flags.
func (t Table) Atomic() bool {
	return t == Nation || t == Region
}

// avgRowBytes is the per-table average tbl-format row width used by the
// plan builder to size chunks. Values are empirical estimates from the
// first 100 rows of each table.
var avgRowBytes = map[Table]int{
	Nation:   88,
	Region:   77,
	Part:     115,
	Supplier: 140,
	Partsupp: 148,
	Customer: 160,
	Orders:   114,
	Lineitem: 128,
}

// AvgRowBytes returns the table's planning constant.
func (t Table) AvgRowBytes() int {
	return avgRowBytes[t]
}

// RowCount returns the number of rows the table has at the given scale
// factor. Nation and region are fixed; the rest scale linearly with sf,
// matching conventional TPC-H cardinalities. Lineitem is derived as a
// fixed multiple of orders (4 line items per order on average), which is
// the same simplification the reference planner uses to size Parquet row
// groups without running the generator twice.
func (t Table) RowCount(sf float64) uint64 {
	switch t {
	case Nation:
		return 25
	case Region:
		return 5
	case Part:
		return uint64(200_000 * sf)
	case Supplier:
		return uint64(10_000 * sf)
	case Partsupp:
		return uint64(800_000 * sf)
	case Customer:
		return uint64(150_000 * sf)
	case Orders:
		return uint64(1_500_000 * sf)
	case Lineitem:
		return 4 * Orders.RowCount(sf)
	default:
		return 0
	}
}

// Columns returns the fixed, ordered column names for the table's tbl/csv
// encoding and Parquet schema.
func (t Table) Columns() []string {
	switch t {
	case Nation:
		return []string{"n_nationkey", "n_name", "n_regionkey", "n_comment"}
	case Region:
		return []string{"r_regionkey", "r_name", "r_comment"}
	case Part:
		return []string{"p_partkey", "p_name", "p_mfgr", "p_brand", "p_type", "p_size", "p_container", "p_retailprice", "p_comment"}
	case Supplier:
		return []string{"s_suppkey", "s_name", "s_address", "s_nationkey", "s_phone", "s_acctbal", "s_comment"}
	case Partsupp:
		return []string{"ps_partkey", "ps_suppkey", "ps_availqty", "ps_supplycost", "ps_comment"}
	case Customer:
		return []string{"c_custkey", "c_name", "c_address", "c_nationkey", "c_phone", "c_acctbal", "c_mktsegment", "c_comment"}
	case Orders:
		return []string{"o_orderkey", "o_custkey", "o_orderstatus", "o_totalprice", "o_orderdate", "o_orderpriority", "o_clerk", "o_shippriority", "o_comment"}
	case Lineitem:
		return []string{"l_orderkey", "l_partkey", "l_suppkey", "l_linenumber", "l_quantity", "l_extendedprice", "l_discount", "l_tax", "l_returnflag", "l_linestatus", "l_shipdate", "l_commitdate", "l_receiptdate", "l_shipinstruct", "l_shipmode", "l_comment"}
	default:
		return nil
	}
}

// Range computes the contiguous, zero-based row range [start, end) that
// part partIndex of partCount owns out of the table's total row count at
// the given scale factor. Ranges are computed from the total alone, never
// from how many parts the plan happens to use, so that re-chunking the
// same scale factor into a different part count still reproduces the same
// per-row content for every row (the concatenation-equals-whole property).
func (t Table) Range(sf float64, partIndex, partCount int) (start, end uint64) {
	total := t.RowCount(sf)
	if partCount <= 0 {
		partCount = 1
	}
	base := total / uint64(partCount)
	rem := total % uint64(partCount)

	idx := uint64(partIndex - 1)
	if idx < rem {
		start = idx * (base + 1)
		end = start + base + 1
	} else {
		start = rem*(base+1) + (idx-rem)*base
		end = start + base
	}
	return start, end
}
