// Package galaxy generates procedural particle galaxies.
//
// A galaxy is fully described by a [Params] record. [Generate] turns the
// record into a [Field]: a flat buffer of interleaved x, y, z positions and,
// for colored galaxies, a matching buffer of r, g, b values in [0, 1].
//
// Two layouts are supported:
//
//   - spiral: particles are spread over Branches arms that curl by Spin
//     radians per unit of radius
//   - scatter: particles are spread uniformly in angle over a flat disc
//
// Every coordinate receives signed jitter U^RandomnessPower * Randomness * r,
// which keeps most particles close to their arm for larger powers.
//
// Generation is split into fixed-size chunks processed concurrently. Each chunk
// owns a random source derived from the seed, so a non-zero Seed always yields
// the same field regardless of how many CPUs are available.
package galaxy
