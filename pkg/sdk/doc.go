// Package nsexbrl extracts the facts of NSE XBRL filings fully offline,
// against a local copy of the exchange's taxonomy archive.
//
// The schemaRef of a filing is resolved by file name inside the archive,
// the instance is staged with its reference rewritten to the archive copy,
// and a validating XBRL engine loads it without touching the network.
// Facts come back keyed by their English standard label, falling back to
// the verbose label and then to the concept QName.
//
// # One-shot
//
//	facts, err := nsexbrl.ParseFile(ctx, "/opt/taxonomies", "filing.xml")
//	switch {
//	case errors.Is(err, nsexbrl.ErrSchemaUnresolvable):
//	    // the exchange published a taxonomy version the archive lacks
//	case err != nil:
//	    return err
//	}
//	fmt.Println(facts["Name of the company"])
//
// # Reusable client
//
//	client, _ := nsexbrl.New(ctx,
//	    nsexbrl.WithArchive("/opt/taxonomies"),
//	    nsexbrl.WithValkey("localhost:6379", ""), // optional fact cache
//	)
//	defer client.Close()
//	res, err := client.Parse(ctx, "filing.xml", content)
package nsexbrl
