// Command storefront runs the storefront server and its maintenance tasks.
//
//	storefront serve                 # start the HTTP server
//	storefront migrate               # run pending migrations
//	storefront migrate:rollback
//	storefront migrate:status
//	storefront seed                  # reference data
//	storefront seed --fake-orders 200 --fake-products 20
//	storefront route:list
//
// Configuration comes from config/app.json, .env and the environment.
package main
