// Package external hands a network to an external visualization tool.
//
// The tool contract is file based: the graph is exported in Pajek format to
// <dir>/network.net and the tool is started on that file. [VOSviewer]
// implements the contract for VOSviewer:
//
//	java -jar <dir>/VOSviewer.jar -pajek_network <dir>/network.net
//
// The call blocks until the tool exits. [Run] drives any [Renderer]
// through the contract and reports a missing
// jar as [ErrToolMissing] without exporting anything, so callers can log a
// warning and carry on.
package external
