package event_bus

import "time"

type ExpenseAddedData struct {
	Category    string
	AmountCents int64
	Date        time.Time
	// Count is the number of stored records after the write.
	Count int
}

type ExpensesReplacedData struct {
	Count int
}
