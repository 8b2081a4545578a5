package entity

// Category clasifica un producto del menú. Conjunto cerrado.
type Category string

const (
	CategoryDesayuno Category = "DESAYUNO"
	CategoryAlmuerzo Category = "ALMUERZO"
	CategoryCena     Category = "CENA"
	CategoryBebida   Category = "BEBIDA"
	CategoryPostre   Category = "POSTRE"
)

// Categories devuelve las categorías en el orden en que se muestran en el menú.
func Categories() []Category {
	return []Category{CategoryDesayuno, CategoryAlmuerzo, CategoryCena, CategoryBebida, CategoryPostre}
}

// Valid indica si la categoría pertenece al conjunto conocido.
func (c Category) Valid() bool {
	switch c {
	case CategoryDesayuno, CategoryAlmuerzo, CategoryCena, CategoryBebida, CategoryPostre:
		return true
	}
	return false
}
