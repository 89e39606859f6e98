package form

import "munc-inventory/internal/domain"

// Fields shown for every item type
var baseFields = []string{
	FieldName,
	FieldSKU,
	FieldItemType,
	FieldProductType,
	FieldCategory,
	FieldSubCategory,
	FieldStatus,
	FieldSellingPrice,
	FieldDescription,
}

// Goods-only fields: physical attributes, codes and stock tracking
var goodsFields = []string{
	FieldBrand,
	FieldSupplier,
	FieldWarehouse,
	FieldBarcode,
	FieldEAN,
	FieldInitialStock,
}

// Services-only fields
var servicesFields = []string{
	FieldServiceDuration,
}

// VisibleFields returns the set of field names the form should present for
// the draft's current item type. It is a pure function of the draft state,
// independent of any rendering layer.
func VisibleFields(d *Draft) map[string]bool {
	visible := make(map[string]bool, len(baseFields)+len(goodsFields))
	for _, f := range baseFields {
		visible[f] = true
	}

	switch d.ItemType {
	case domain.ItemTypeGoods:
		for _, f := range goodsFields {
			visible[f] = true
		}
	case domain.ItemTypeServices:
		for _, f := range servicesFields {
			visible[f] = true
		}
	}

	return visible
}

// RequiredFields returns the set of field names that must be filled before
// the draft can be submitted
func RequiredFields(d *Draft) map[string]bool {
	required := map[string]bool{
		FieldName:         true,
		FieldSKU:          true,
		FieldItemType:     true,
		FieldProductType:  true,
		FieldCategory:     true,
		FieldSellingPrice: true,
	}

	if d.ItemType == domain.ItemTypeGoods {
		required[FieldInitialStock] = true
	}

	return required
}
