package main

// findItem localiza a linha do produto na coleção, se houver
func findItem(items []OrderItem, productID string) (OrderItem, bool) {
	for _, item := range items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return OrderItem{}, false
}

// upsertItem devolve uma nova coleção com newItem aplicado. Se já existe uma
// linha para o mesmo produto, a coleção volta intacta e a linha existente é
// reportada — a política de merge fica no use case, porque a validação de
// estoque precisa acontecer entre a consulta e o merge. A coleção de entrada
// nunca é mutada; ordem de inserção preservada, linhas novas vão para o fim.
func upsertItem(items []OrderItem, newItem OrderItem) ([]OrderItem, OrderItem) {
	updated := make([]OrderItem, len(items))
	copy(updated, items)

	if existing, ok := findItem(updated, newItem.ProductID); ok {
		return updated, existing
	}

	updated = append(updated, newItem)
	return updated, newItem
}

// setItemQuantity devolve uma nova coleção com a quantidade da linha do
// produto substituída; as demais linhas e a ordem ficam como estavam
func setItemQuantity(items []OrderItem, productID string, quantity int) []OrderItem {
	updated := make([]OrderItem, len(items))
	copy(updated, items)

	for i := range updated {
		if updated[i].ProductID == productID {
			updated[i].Quantity = quantity
		}
	}
	return updated
}

// reduceItem devolve uma nova coleção com a linha do produto reduzida em
// target.Quantity. Reduzir a quantidade inteira remove a linha da coleção:
// linha com quantidade zero não existe em pedido nenhum.
func reduceItem(items []OrderItem, target OrderItem) ([]OrderItem, error) {
	existing, ok := findItem(items, target.ProductID)
	if !ok {
		return nil, ErrItemNotOnOrder
	}
	if existing.Quantity < target.Quantity {
		return nil, ErrInsufficientQuantity
	}

	updated := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != target.ProductID {
			updated = append(updated, item)
			continue
		}
		if item.Quantity == target.Quantity {
			continue
		}
		item.Quantity -= target.Quantity
		updated = append(updated, item)
	}
	return updated, nil
}
