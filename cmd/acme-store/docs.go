package main

// @title Acme Store API
// @version 1.0
// @description Users, products and favorites API backed by PostgreSQL
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:3001
// @BasePath /

// @tag.name Users
// @tag.description User endpoints

// @tag.name Products
// @tag.description Product catalogue endpoints

// @tag.name Favorites
// @tag.description Per-user favorite products

// @tag.name Health
// @tag.description Health and metrics endpoints
