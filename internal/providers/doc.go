// Package providers defines the contract shared by every subtitle source.
//
// A search builds one immutable Session, hands it to each Provider in
// parallel, and receives an ordered Listing of release names mapped to
// download locators. Providers that hand back intermediate page URLs also
// implement Resolver; providers that must validate per-search state before
// any network traffic implement Preflight.
package providers
