// Package reconcile adapts the generic sync engine to local student profiles.
//
// Students are matched by phone key. New remote students get a STUDENT login
// (<prefix>_<key>, disambiguated with four random characters on collision), a
// student code <PREFIX>-<key> and the import program. Existing students are linked
// to their remote id and have their email refreshed when the remote has a new one.
package reconcile
