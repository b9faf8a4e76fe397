package model

import "time"

// Customer is a buyer of jewelry.  Phone is optional.
type Customer struct {
    ID        uint64    // customer.id
    FullName  string    // customer.full_name
    Phone     *string   // customer.phone (nullable)
    CreatedAt time.Time // customer.created_at
}
