package models

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&Store{},
		&Category{},
		&Product{},
		&Sale{},
		&SaleItem{},
		&BarcodeScan{},
		&User{},
	}
}
