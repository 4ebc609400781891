package orders

type Status string

const (
	StatusInProcess Status = "InProcess"
	StatusDelivered Status = "Delivered"
)

var validNext = map[Status]map[Status]bool{
	StatusInProcess: {StatusDelivered: true},
	StatusDelivered: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
