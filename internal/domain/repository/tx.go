package repository

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Products       ProductRepository
	Lots           LotRepository
	PurchaseOrders PurchaseOrderRepository
	Transfers      StockTransferRepository
	Counts         CountSessionRepository
}
