package converter

import "time"

// ProductDocument представляет документ коллекции products в MongoDB.
// _id назначается драйвером, продукт адресуется полем id.
type ProductDocument struct {
	ID        string    `bson:"id"`
	Name      string    `bson:"name"`
	Quantity  int       `bson:"quantity"`
	Price     float64   `bson:"price"`
	Status    bool      `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
