// Package serializer converts recipes between their JSON definition
// files, the network wire format and memory.
//
// Each recipe kind has a Serializer registered under its type ID in a
// Registry. The registry also reads and writes the recipe sync packet
// sent to clients.
//
// Decode failures in JSON definitions are reported as *LoadError values
// carrying an E2xx code:
//
//	E201  ingredients missing or not an array
//	E202  result missing or not an object
//	E203  invalid ingredient
//	E204  invalid result stack
//	E205  unknown item tag
//	E206  missing, malformed or unregistered type
//	E207  not a JSON object
//	E208  empty ingredient list
//	E209  duplicate recipe id
package serializer
