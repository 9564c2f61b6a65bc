// Package naming derives every identifier the generated pipeline uses for an
// application: the reference prefix, workflow input ids, job output names and
// the external credential reference names.
//
// All functions are pure. ValidateApps must run before any text is emitted so
// that a conflicting name aborts generation without a partial document.
//
//	p := naming.DerivePrefix("orders-api") // {Upper: "ORDERS_API", Lower: "orders_api"}
//	naming.AppRef(p, naming.SuffixName)   // "ORDERS_API_NAME"
package naming
