// Package rateshop implements the rate-shopping engine: it authenticates
// against the shipping-rate provider, submits a shipment description and
// turns the returned carrier quotes into a filtered, price-sorted result.
//
// The engine is stateless — every Shop call obtains a fresh bearer token and
// performs one rate lookup. Filtering and sorting are pure functions over
// the decoded quotes so they stay unit-testable without a network. Only
// transport and authentication failures are errors; an empty result (no
// quotes, or a filter excluding everything) is a normal outcome.
package rateshop
