/*
Package svp solves instances of the Shortest Vector Problem on integer
lattices with exact arbitrary precision arithmetic. Given an LLL/BKZ-reduced
basis, it samples lattice points from an approximate discrete Gaussian (GPV08)
and runs the Gauss Sieve of Micciancio and Voulgaris (MV10) to converge toward
a nonzero lattice vector of near-minimal Euclidean norm.
*/
package svp
