// Package ofxledger imports investment statements into a double entry book.
//
// An import run resolves the securities of a decoded statement to commodities
// and accounts of the book, skips the transactions already posted by a
// previous run, posts the others and reconciles the reported positions
// against the account balances:
//
//	st, err := ofx.Decode(ctx, f)
//	if err != nil {
//		return err
//	}
//	report, err := ofxledger.NewImporter(b, st, cfg).Run(ctx, ofxledger.Options{})
//	if err != nil {
//		return err // b is left as it was
//	}
//	fmt.Println(report.Markdown())
//
// Every posted transaction carries the statement transaction id in its notes
// and the memo as description. Realized gains are filed by lot age.
package ofxledger
