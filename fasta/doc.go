/*
Package fasta reads and writes FASTA files, and builds FASTA entries from the
chains of a PDB entry.

The format used is the one described by NCBI:
http://blast.ncbi.nlm.nih.gov/blastcgihelp.shtml

Sequences read are checked to make sure they contain only valid characters:
a-z, A-Z, * and -. Lower case letters are translated to upper case.
*/
package fasta
