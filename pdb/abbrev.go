package pdb

var aminoMap = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
	"UNK": 'X', "ASX": 'X', "GLX": 'X',

	// Seen often enough without a MODRES record.
	"MSE": 'M',
}

// standardAminos are the residues accepted into a backbone segment.
// Selenomethionine is included since it's a drop-in for methionine in most
// crystal structures.
var standardAminos = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLU": true, "GLN": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true,
}

type modification struct {
	chainIdent byte
	from       string
}

func isAmino(threeAbbrev string) bool {
	_, ok := aminoMap[threeAbbrev]
	return ok
}

func isStandardAmino(threeAbbrev string) bool {
	return standardAminos[threeAbbrev]
}

func getAmino(threeAbbrev string) byte {
	if v, ok := aminoMap[threeAbbrev]; ok {
		return v
	}
	return 'X'
}

// standardName translates a residue name through the MODRES records of the
// entry. If the residue isn't modified, the name is returned unchanged.
func (e *Entry) standardName(chainIdent byte, name string) string {
	if std, ok := e.modified[modification{chainIdent, name}]; ok {
		return std
	}
	return name
}
