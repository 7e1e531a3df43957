// Package blueprint describes state machine graphs in YAML and applies them
// to a statemachine.Engine.
//
// A blueprint lists states in declaration order (the order matters: the first
// state is the default initial state and transition order breaks resolver
// ties), transitions, event bindings, and optional initial and goal states:
//
//	name: connection
//	initial: disconnected
//	goal: connected
//	states: [disconnected, connecting, connected, closed]
//	transitions:
//	  - {name: dial, from: disconnected, to: connecting}
//	  - {name: handshake, from: connecting, to: connected}
//	  - {name: hangup, from: connected, to: disconnected}
//	  - {name: close, from: disconnected, to: closed}
//	events:
//	  - {name: drop, state: connected, transition: hangup}
//
// Listeners are code, not data, so they are attached by the embedding
// application after Apply.
package blueprint
