package sqlinline

const QCountDonors = `--sql c205b76f-4856-4088-8e41-d3e906650967
select count(*) from public.blood;
`

const QCountDonorsByBloodType = `--sql b686bece-f495-458c-ab57-12ec11035319
select blood_type, count(*)
from public.blood
group by blood_type
order by blood_type;
`

const QRecentDonors = `--sql 5d696832-3626-4699-9768-5cfa49ed686d
select id::text, first_name, blood_type, city, latitude::float8, longitude::float8, created_at
from public.blood
order by created_at desc nulls last
limit $1::int;
`

const QCountSearches = `--sql 559d492d-88ea-48cb-9f62-6c6e339216f7
select count(*) from public.search_logs;
`

const QCountRegistrationsSince = `--sql b0b9b54b-0053-4501-a1a3-7ca4bd22efcb
select count(*) from public.blood where created_at >= $1::timestamptz;
`

const QTopCities = `--sql 29e2faa3-de81-4574-8788-6615a9eb8f20
select city, count(*) as donors
from public.blood
where city is not null
group by city
order by donors desc
limit $1::int;
`
