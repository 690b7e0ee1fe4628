package tpch

import "fmt"

// ColumnKinds returns the formatting/typing tag for each of the table's
// columns, parallel to Columns().
func (t Table) ColumnKinds() []ColumnKind {
	switch t {
	case Nation:
		return []ColumnKind{KindInt, KindString, KindInt, KindString}
	case Region:
		return []ColumnKind{KindInt, KindString, KindString}
	case Part:
		return []ColumnKind{KindInt, KindString, KindString, KindString, KindString, KindInt, KindString, KindDecimal, KindString}
	case Supplier:
		return []ColumnKind{KindInt, KindString, KindString, KindInt, KindString, KindDecimal, KindString}
	case Partsupp:
		return []ColumnKind{KindInt, KindInt, KindInt, KindDecimal, KindString}
	case Customer:
		return []ColumnKind{KindInt, KindString, KindString, KindInt, KindString, KindDecimal, KindString, KindString}
	case Orders:
		return []ColumnKind{KindInt, KindInt, KindString, KindDecimal, KindDate, KindString, KindString, KindInt, KindString}
	case Lineitem:
		return []ColumnKind{KindInt, KindInt, KindInt, KindInt, KindDecimal, KindDecimal, KindDecimal, KindDecimal, KindString, KindString, KindDate, KindDate, KindDate, KindString, KindString, KindString}
	default:
		return nil
	}
}

var nationNames = []string{
	"ALGERIA", "ARGENTINA", "BRAZIL", "CANADA", "EGYPT", "ETHIOPIA", "FRANCE",
	"GERMANY", "INDIA", "INDONESIA", "IRAN", "IRAQ", "JAPAN", "JORDAN", "KENYA",
	"MOROCCO", "MOZAMBIQUE", "PERU", "CHINA", "ROMANIA", "SAUDI ARABIA",
	"VIETNAM", "RUSSIA", "UNITED KINGDOM", "UNITED STATES",
}

var nationRegions = []int64{
	0, 1, 1, 1, 4, 0, 3, 3, 2, 2, 4, 4, 2, 4, 0, 0, 0, 1, 2, 3, 4, 2, 3, 3, 1,
}

var regionNames = []string{"AFRICA", "AMERICA", "ASIA", "EUROPE", "MIDDLE EAST"}

const (
	orderStartDate = (1992-1970)*365 + 6 // 1992-01-02, one day past TPC-H's order-date window start
	orderSpanDays  = 2557                // ~7 years, TPC-H's O_ORDERDATE window
)

var orderPriorities = []string{"1-URGENT", "2-HIGH", "3-MEDIUM", "4-NOT SPECIFIED", "5-LOW"}
var shipModes = []string{"REG AIR", "AIR", "RAIL", "SHIP", "TRUCK", "MAIL", "FOB"}
var shipInstructs = []string{"DELIVER IN PERSON", "COLLECT COD", "NONE", "TAKE BACK RETURN"}
var returnFlags = []string{"R", "A", "N"}
var lineStatuses = []string{"O", "F"}
var marketSegments = []string{"AUTOMOBILE", "BUILDING", "FURNITURE", "HOUSEHOLD", "MACHINERY"}

// GenerateRow produces row rowID of table t at scale factor sf. rowID is
// zero-based and global to the whole table, independent of how the table
// happens to be partitioned into chunks.
func GenerateRow(t Table, sf float64, rowID uint64) Row {
	rng := rngForRow(t, sf, rowID)
	switch t {
	case Nation:
		idx := int(rowID) % len(nationNames)
		return Row{
			IntValue(int64(rowID)),
			StringValue(nationNames[idx]),
			IntValue(nationRegions[idx]),
			StringValue(randomString(rng, 31, 114)),
		}
	case Region:
		idx := int(rowID) % len(regionNames)
		return Row{
			IntValue(int64(rowID)),
			StringValue(regionNames[idx]),
			StringValue(randomString(rng, 31, 115)),
		}
	case Part:
		key := int64(rowID) + 1
		return Row{
			IntValue(key),
			StringValue(fmt.Sprintf("part-%s", randomString(rng, 10, 22))),
			StringValue(fmt.Sprintf("Manufacturer#%d", 1+rng.Intn(5))),
			StringValue(fmt.Sprintf("Brand#%d%d", 1+rng.Intn(5), 1+rng.Intn(5))),
			StringValue(randomString(rng, 10, 25)),
			IntValue(int64(1 + rng.Intn(50))),
			StringValue(randomString(rng, 8, 10)),
			DecimalValue(randomDecimal(rng, 90000, 205000)),
			StringValue(randomString(rng, 5, 23)),
		}
	case Supplier:
		key := int64(rowID) + 1
		nationKey := int64(rowID) % int64(len(nationNames))
		return Row{
			IntValue(key),
			StringValue(fmt.Sprintf("Supplier#%09d", key)),
			StringValue(randomString(rng, 10, 40)),
			IntValue(nationKey),
			StringValue(randomPhone(rng, nationKey)),
			DecimalValue(randomDecimal(rng, -99999, 999999)),
			StringValue(randomString(rng, 5, 100)),
		}
	case Partsupp:
		partKey := int64(rowID)%int64(maxUint64(Part.RowCount(sf), 1)) + 1
		suppKey := int64(rowID)%int64(maxUint64(Supplier.RowCount(sf), 1)) + 1
		return Row{
			IntValue(partKey),
			IntValue(suppKey),
			IntValue(int64(1 + rng.Intn(9999))),
			DecimalValue(randomDecimal(rng, 100, 100000)),
			StringValue(randomString(rng, 49, 198)),
		}
	case Customer:
		key := int64(rowID) + 1
		nationKey := int64(rowID) % int64(len(nationNames))
		return Row{
			IntValue(key),
			StringValue(fmt.Sprintf("Customer#%09d", key)),
			StringValue(randomString(rng, 10, 40)),
			IntValue(nationKey),
			StringValue(randomPhone(rng, nationKey)),
			DecimalValue(randomDecimal(rng, -99999, 999999)),
			StringValue(marketSegments[rng.Intn(len(marketSegments))]),
			StringValue(randomString(rng, 29, 116)),
		}
	case Orders:
		key := int64(rowID) + 1
		custKey := int64(rowID)%int64(maxUint64(Customer.RowCount(sf), 1)) + 1
		status := lineStatuses[rng.Intn(2)]
		if rng.Intn(3) == 0 {
			status = "P"
		}
		return Row{
			IntValue(key),
			IntValue(custKey),
			StringValue(status),
			DecimalValue(randomDecimal(rng, 85700, 5500000)),
			DateValue(randomDate(rng, orderStartDate, orderSpanDays)),
			StringValue(orderPriorities[rng.Intn(len(orderPriorities))]),
			StringValue(fmt.Sprintf("Clerk#%09d", 1+rng.Intn(1000))),
			IntValue(0),
			StringValue(randomString(rng, 19, 78)),
		}
	case Lineitem:
		orderKey := int64(rowID)/4 + 1
		lineNumber := int64(rowID)%4 + 1
		partKey := int64(rowID)%int64(maxUint64(Part.RowCount(sf), 1)) + 1
		suppKey := int64(rowID)%int64(maxUint64(Supplier.RowCount(sf), 1)) + 1
		shipDate := randomDate(rng, orderStartDate, orderSpanDays)
		commitDate := date(int32(shipDate) + int32(1+rng.Intn(30)))
		receiptDate := date(int32(commitDate) + int32(1+rng.Intn(30)))
		return Row{
			IntValue(orderKey),
			IntValue(partKey),
			IntValue(suppKey),
			IntValue(lineNumber),
			DecimalValue(newDecimal(int64(1+rng.Intn(50)), 0)),
			DecimalValue(randomDecimal(rng, 100, 9999999)),
			DecimalValue(randomDecimal(rng, 0, 10)),
			DecimalValue(randomDecimal(rng, 0, 8)),
			StringValue(returnFlags[rng.Intn(len(returnFlags))]),
			StringValue(lineStatuses[rng.Intn(len(lineStatuses))]),
			DateValue(shipDate),
			DateValue(commitDate),
			DateValue(receiptDate),
			StringValue(shipInstructs[rng.Intn(len(shipInstructs))]),
			StringValue(shipModes[rng.Intn(len(shipModes))]),
			StringValue(randomString(rng, 10, 44)),
		}
	default:
		return nil
	}
}

func maxUint64(v uint64, min uint64) uint64 {
	if v < min {
		return min
	}
	return v
}

// Init materializes the small, shared static tables (nation/region name
// lists, order/shipping enumerations) once per process. They are already
// package-level slice literals, so Init exists to give the table driver a
// concrete, timeable warmup step matching the pre-table initialization
// described for the reference generator, rather than because any lazy
// work actually remains to be done.
func Init() {
	_ = nationNames
	_ = regionNames
}
