// Package order provides lookup of customer orders from a JSON file. It
// stands in for the production order database: the assistant resolves an
// order number mentioned in chat to the shipment description the rate-shop
// engine needs.
package order
