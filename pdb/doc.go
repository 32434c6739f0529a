/*
Package pdb provides minimal support for extracting the information from PDB
files that is needed to study protein backbones: the chains in a file, the
models of each chain, and the residues of each model along with their atom
coordinates.

Chains are kept in the order they first appear in the file, and residues are
kept in the order of their ATOM records. Residues can be split into backbone
segments: maximal runs of amino acids joined by peptide bonds.

Files may be compressed with gzip, zstd or lz4, which is detected by the file
extension (".gz", ".zst" or ".lz4").

Records that don't describe coordinates or modified residues are ignored. In
particular, missing HEADER information is never an error. How malformed
coordinate records are treated is controlled by Options.Strict.
*/
package pdb
