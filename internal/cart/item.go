// Package cart implements the session-scoped shopping cart: an
// in-memory list of line items persisted per scope (guest or a specific
// user), with a merge routine that folds a guest cart into a user cart
// on login.
package cart

import "strconv"

// Size is the selected product variant, carried as a snapshot on the
// line item.
type Size struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// LineItem is one cart line. Product fields are snapshotted at add time
// and never re-fetched from the catalog.
type LineItem struct {
	Key       string  `json:"key"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Size      *Size   `json:"selected_size,omitempty"`
}

// ItemKey builds the composite identity of a cart line. Two lines with
// the same key are the same logical item and get their quantities
// summed rather than duplicated.
func ItemKey(productID uint, size *Size) string {
	id := strconv.FormatUint(uint64(productID), 10)
	if size == nil {
		return id
	}
	return id + "_" + strconv.FormatUint(uint64(size.ID), 10)
}
