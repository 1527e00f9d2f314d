// Package rcp implements the host side of the Rocket Control Protocol, the
// binary wire codec a ground station uses to talk to a test-stand
// controller. It knows nothing about the transport underneath it — callers
// supply SendData/ReadData — and nothing about process lifecycle, logging,
// or a CLI; see the cmd/ and internal/ packages for that.
//
// A Host is single-threaded: Poll and the Send*/Request*/PromptRespond*
// family must never be called concurrently with each other, and a delivery
// callback must never re-enter the Host it was called from.
package rcp
