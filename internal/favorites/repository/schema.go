package repository

// Constraint names referenced when classifying store errors.
const (
	constraintUsername        = "users_username_key"
	constraintProductName     = "products_name_key"
	constraintFavoritePair    = "unique_user_id_and_product_id"
	constraintFavoriteUser    = "favorites_user_id_fkey"
	constraintFavoriteProduct = "favorites_product_id_fkey"
)

// schemaStatements recreates the store from scratch. They run in order inside
// one transaction.
var schemaStatements = []string{
	`DROP TABLE IF EXISTS favorites`,
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS products`,
	`CREATE TABLE users (
		id UUID PRIMARY KEY,
		username VARCHAR(350) NOT NULL,
		password VARCHAR(255) NOT NULL,
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE TABLE products (
		id UUID PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		CONSTRAINT products_name_key UNIQUE (name)
	)`,
	`CREATE TABLE favorites (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL,
		user_id UUID NOT NULL,
		CONSTRAINT favorites_product_id_fkey FOREIGN KEY (product_id) REFERENCES products (id),
		CONSTRAINT favorites_user_id_fkey FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT unique_user_id_and_product_id UNIQUE (user_id, product_id)
	)`,
}
