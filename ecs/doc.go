// Package ecs provides ECS adapters for databar's label stream events.
//
// The primary adapter is [NewDonburiSink], which republishes every
// LabelStream mutation into a [Donburi] world as a typed [LabelEvent].
// Subscribe to [LabelEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	session.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
