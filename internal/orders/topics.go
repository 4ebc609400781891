package orders

const (
	TopicOrderCreated   = "order.created"
	TopicOrderDelivered = "order.delivered"
)

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
