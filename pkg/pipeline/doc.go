// Package pipeline drives a script through the parser, the analyzer and
// the session updater, one statement at a time.
//
// Statement N+1 is lexed under the session left behind by statement N: a
// SET sql_mode = 'ANSI_QUOTES' changes how every later string is tokenized,
// and a DELIMITER command changes where the next statement ends.
//
//	sess, _ := session.New(platform.Default())
//	analyzer, _ := lint.NewAnalyzer(lint.GetAllRules())
//	p := pipeline.New(sess, analyzer)
//	for res, err := range p.Analyze(script) {
//	    if err != nil {
//	        return err // a rule failed; the stream is over
//	    }
//	    fmt.Println(res.Index, res.Failed, len(res.Diagnostics))
//	}
//
// A statement is failed when it has parse errors or a diagnostic at
// core.SeverityCritical or above. Failed statements never change the
// session, so later statements are analyzed under the last good state.
package pipeline
