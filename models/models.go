// Package models contains the TPC-H entities the harness seeds into Neo4j.
// The `crud` struct tags map each struct to its node label and properties;
// the `pk` field is the property carrying the uniqueness constraint.
package models

// Part is a manufactured part.
type Part struct {
	PartKey string `crud:"pk,property:partkey"`
	Mfgr    string `crud:"property:mfgr"`
	Type    string `crud:"property:type"`
	Size    int64  `crud:"property:size"`
}

// Supplier is stored under the short label `Sup`.
type Supplier struct {
	SuppKey string  `crud:"pk,property:suppkey,label:Sup"`
	Name    string  `crud:"property:name"`
	Address string  `crud:"property:address"`
	Phone   string  `crud:"property:phone"`
	AcctBal float64 `crud:"property:acctbal"`
	Comment string  `crud:"property:comment"`
}

// Customer places orders.
type Customer struct {
	CustKey    string `crud:"pk,property:custkey"`
	MktSegment string `crud:"property:mktsegment"`
}

// Order is placed by one customer. OrderDate is left as the driver's value
// (a neo4j.Date) so this package stays free of driver imports.
type Order struct {
	OrderKey     string `crud:"pk,property:orderkey"`
	OrderDate    any    `crud:"property:orderdate"`
	ShipPriority int64  `crud:"property:shippriority"`
}

// Nation belongs to one region.
type Nation struct {
	NationKey string `crud:"pk,property:nationkey"`
	Name      string `crud:"property:name"`
}

// Region groups nations.
type Region struct {
	RegionKey string `crud:"pk,property:regionkey"`
	Name      string `crud:"property:name"`
}
