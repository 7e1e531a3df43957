// Package controlapi exposes a statemachine.Engine over HTTP so operators
// can inspect it, move its goal, fire events and start or stop its driver.
//
//	GET  /state          initial, current and goal states and whether the driver runs
//	PUT  /goal           {"state": "..."}; 404 for unknown states, 409 when unreachable
//	POST /events/{name}  fire an event; replies with the number of transitions taken
//	POST /drive/{state}  drive synchronously; 409 while the driver runs
//	POST /start          start the driver
//	POST /stop           stop the driver
//	GET  /graph          snapshot as JSON
//	GET  /graph.dot      snapshot as Graphviz
//	GET  /blueprint      graph as a YAML blueprint
//	GET  /health         liveness
//	GET  /ready          readiness: every check passed to Router passes
//
// DriverCheck makes readiness follow the driver: it fails while the driver
// is stopped outside a terminal state. Leave it out for engines that are
// driven by hand through /drive and /events.
//
// Every request carries an X-Request-ID, generated when the caller sends
// none or an invalid one.
package controlapi
